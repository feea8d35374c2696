package values

// CatalogFields names the catalog columns the application relies on.
type CatalogFields struct {
	Code           string   `yaml:"code"`
	Price          string   `yaml:"price"`
	Label          string   `yaml:"label"`
	Brand          string   `yaml:"brand"`
	DefaultColumns []string `yaml:"default_columns"`
}

func DefaultCatalogFields() CatalogFields {
	return CatalogFields{
		Code:           "Code Produit",
		Price:          "Prix",
		Label:          "Libellé produit",
		Brand:          "Marque",
		DefaultColumns: []string{"Libellé produit", "Marque", "Prix"},
	}
}

// WithDefaults fills empty names from DefaultCatalogFields.
func (f CatalogFields) WithDefaults() CatalogFields {
	d := DefaultCatalogFields()
	if f.Code == "" {
		f.Code = d.Code
	}
	if f.Price == "" {
		f.Price = d.Price
	}
	if f.Label == "" {
		f.Label = d.Label
	}
	if f.Brand == "" {
		f.Brand = d.Brand
	}
	if len(f.DefaultColumns) == 0 {
		f.DefaultColumns = d.DefaultColumns
	}
	return f
}
