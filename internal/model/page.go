package model

// PageType discriminates the page data returned for a shop slug.
type PageType string

const (
	PageIndex      PageType = "index"
	PageProduct    PageType = "product"
	PageCategory   PageType = "category"
	PageCollection PageType = "collection"
	PageCart       PageType = "cart"
	PageCheckout   PageType = "checkout"
	PageAccount    PageType = "account"
	PageLogin      PageType = "login"
	PageRegister   PageType = "register"
	PagePlans      PageType = "plans"
)

// PageData is the data a shop page renders from. Only the fields relevant
// to Type are populated.
type PageData struct {
	Type            PageType         `json:"type"`
	Lang            string           `json:"lang"`
	Slug            string           `json:"slug"`
	Product         *Product         `json:"product,omitempty"`
	Category        *Category        `json:"category,omitempty"`
	Collection      *Collection      `json:"collection,omitempty"`
	Products        *ProductPage     `json:"products,omitempty"`
	Categories      []Category       `json:"categories,omitempty"`
	Collections     []Collection     `json:"collections,omitempty"`
	Regions         []Region         `json:"regions,omitempty"`
	Cart            *Cart            `json:"cart,omitempty"`
	Checkout        *CheckoutState   `json:"checkout,omitempty"`
	ShippingOptions []ShippingOption `json:"shippingOptions,omitempty"`
}
