package assets

// AssetLoader defines the contract for loading SVG templates.
type AssetLoader interface {
	// LoadTemplate loads an SVG template by name (without .svg extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// DefaultTemplateName is the name of the built-in template used when none is configured.
const DefaultTemplateName = "default"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads a built-in template by name using the embedded loader.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// TemplateNames lists the built-in template names in sorted order.
func TemplateNames() []string {
	return defaultLoader.Names()
}
