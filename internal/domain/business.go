package domain

// BusinessCategory is the closed set of trades a directory entry may belong to.
type BusinessCategory string

const (
	CategoryHeating     BusinessCategory = "Heizung"
	CategorySanitary    BusinessCategory = "Sanitär"
	CategoryClimate     BusinessCategory = "Klima"
	CategoryVentilation BusinessCategory = "Lüftung"
	CategoryElectrical  BusinessCategory = "Elektro"
)

// BusinessCategories lists the closed set in display order.
var BusinessCategories = []BusinessCategory{
	CategoryHeating,
	CategorySanitary,
	CategoryClimate,
	CategoryVentilation,
	CategoryElectrical,
}

// ValidBusinessCategory reports whether c belongs to the closed set.
func ValidBusinessCategory(c BusinessCategory) bool {
	for _, v := range BusinessCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Business is a directory listing for a regional trade company.
type Business struct {
	// ID is an opaque unique identifier within the directory.
	ID string `json:"id" yaml:"id"`

	Name     string           `json:"name" yaml:"name"`
	Category BusinessCategory `json:"category" yaml:"category"`

	Address string `json:"address" yaml:"address"`
	City    string `json:"city" yaml:"city"`
	Zip     string `json:"zip" yaml:"zip"`

	Phone   string `json:"phone" yaml:"phone"`
	Website string `json:"website,omitempty" yaml:"website,omitempty"`

	Description string `json:"description" yaml:"description"`
	LogoURL     string `json:"logoUrl" yaml:"logoUrl"`
}
