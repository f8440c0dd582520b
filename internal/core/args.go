package core

// Typed arguments per tool. Field tags match the declared parameter names;
// values arrive already validated and with defaults applied.

type productsArgs struct {
	Limit       int    `json:"limit"`
	SearchTitle string `json:"searchTitle"`
}

type productByIDArgs struct {
	ProductID string `json:"productId"`
}

type ordersArgs struct {
	Limit  int    `json:"limit"`
	Status string `json:"status"`
}

type customersArgs struct {
	Limit       int    `json:"limit"`
	SearchQuery string `json:"searchQuery"`
}

type createProductArgs struct {
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Vendor          string   `json:"vendor"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
}
