package store

import (
	"rnimart-be/internal/catalog"
	"rnimart-be/internal/user"
)

func defaultProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "P1", Name: "Beras RNI Premium", Description: "Beras pulen kualitas super asli petani pilihan.", Price: 75000, Stock: 50, ImageURL: "https://picsum.photos/seed/rice/400/300", Weight: "5kg", Category: "Sembako", Type: catalog.TypeUnit},
		{ID: "P2", Name: "Minyak Goreng SunCo", Description: "Minyak bening tanpa kolesterol.", Price: 38000, Stock: 30, ImageURL: "https://picsum.photos/seed/oil/400/300", Weight: "2L", Category: "Sembako", Type: catalog.TypeUnit},
		{ID: "P3", Name: "Indomie Goreng (Karton)", Description: "Paket hemat satu karton isi 40 pcs.", Price: 115000, Stock: 15, ImageURL: "https://picsum.photos/seed/noodle/400/300", Weight: "Karton", Category: "Makanan", Type: catalog.TypeUnit},
		{ID: "P4", Name: "Paket Sembako Berkah", Description: "Isi: Beras 5kg, Minyak 1L, Gula 1kg.", Price: 125000, Stock: 10, ImageURL: "https://picsum.photos/seed/bundle/400/300", Category: "Paket Hemat", Type: catalog.TypeBundle},
	}
}

func defaultCategories() []string {
	return []string{"Sembako", "Makanan", "Minuman", "Kebutuhan Rumah", "Paket Hemat"}
}

// defaultUsers are the bootstrap accounts, both with password "123".
func defaultUsers(hash func(string) (string, error)) ([]user.User, error) {
	users := []user.User{
		{
			Name:     "Super Administrator",
			Username: "superadmin",
			Role:     user.RoleAdmin,
			WA:       "6285282863008",
			Address:  "Kantor Pusat RNI Mart Corporate",
			Email:    "admin@rnimart.com",
		},
		{
			Name:     "Budi Santoso",
			Username: "budi01",
			Role:     user.RoleCustomer,
			WA:       "628123456789",
			Address:  "Jl. Merdeka No. 10, Jakarta Pusat",
			Email:    "budi@mail.com",
		},
	}
	for i := range users {
		h, err := hash("123")
		if err != nil {
			return nil, err
		}
		users[i].Password = h
	}
	return users, nil
}
