package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusApproved ProductStatus = "approved"
	ProductStatusRejected ProductStatus = "rejected"
)

// 外部APIの商品（読み取り専用）
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
	Status      ProductStatus   `json:"status"`
}

// IDが文字列で来ても読めるようにする
func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	aux := struct {
		*alias
		ID FlexID `json:"id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = int64(aux.ID)
	return nil
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (c *Category) UnmarshalJSON(b []byte) error {
	type alias Category
	aux := struct {
		*alias
		ID FlexID `json:"id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = int64(aux.ID)
	return nil
}

// 商品IDで引けるカタログ
type Catalog map[int64]Product

func NewCatalog(products []Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

func (c Catalog) Lookup(productID int64) (Product, bool) {
	p, ok := c[productID]
	return p, ok
}
