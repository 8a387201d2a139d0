package catalog

type ProductType string

const (
	TypeUnit   ProductType = "satuan"
	TypeBundle ProductType = "paket"
)

// BundleDescriptionPrefix starts the description generated for bundle products.
const BundleDescriptionPrefix = "Isi Paket: "

// AllCategories is the filter value that matches every product.
const AllCategories = "Semua"

// Product is a sellable catalog entry. Stock is advisory and never checked at
// checkout. Weight and Category are optional; absent and empty mean the same.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"nama"`
	Description string      `json:"deskripsi"`
	Price       int64       `json:"harga"`
	Stock       int         `json:"stok"`
	ImageURL    string      `json:"url_foto"`
	Weight      string      `json:"berat,omitempty"`
	Category    string      `json:"kategori,omitempty"`
	Type        ProductType `json:"type"`
	// BundleItems holds the ids of the unit products a bundle is made of.
	BundleItems []string `json:"isi_paket,omitempty"`
}

func (p Product) IsBundle() bool {
	return p.Type == TypeBundle
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	if p.BundleItems != nil {
		p.BundleItems = append([]string(nil), p.BundleItems...)
	}
	return p
}

// ProductInput is the admin form for creating or editing a product.
// NewCategory, when set, is added to the category list and used instead of Category.
type ProductInput struct {
	Name        string      `json:"nama" validate:"required"`
	Description string      `json:"deskripsi"`
	Price       int64       `json:"harga" validate:"gte=0"`
	Stock       int         `json:"stok" validate:"gte=0"`
	ImageURL    string      `json:"url_foto"`
	Weight      string      `json:"berat"`
	Category    string      `json:"kategori"`
	NewCategory string      `json:"kategori_baru"`
	Type        ProductType `json:"type" validate:"required,oneof=satuan paket"`
	BundleItems []string    `json:"isi_paket"`
}

type ListFilter struct {
	// Category is matched exactly; empty or AllCategories matches everything.
	Category string
	// Search is a case-insensitive substring of the product name.
	Search string
}
