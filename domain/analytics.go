package domain

type ProductClick struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	ClickCount int64  `db:"click_count" json:"click_count"`
}

type Analytics struct {
	ProductClicks   []ProductClick `json:"productClicks"`
	TotalProducts   int            `json:"totalProducts"`
	TotalCategories int            `json:"totalCategories"`
}
