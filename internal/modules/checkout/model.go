package checkout

// Fixed header values for every new invoice. Status 1 is the initial
// "created" state; the tax registration number is a placeholder until
// per-customer tax IDs are collected at checkout.
const (
	invoiceStatusCreated = 1
	invoiceTaxID         = "123456"
)

// ColorRef selects a color for a cart entry.
type ColorRef struct {
	ColorID int64  `json:"color_id"`
	Name    string `json:"name,omitempty"`
}

// SizeRef selects a size for a cart entry.
type SizeRef struct {
	SizeID int64  `json:"size_id"`
	Name   string `json:"name,omitempty"`
}

// CartItem is one line submitted at checkout: a standalone product, or a
// bundle whose constituents arrive as SubItems. Sub-item prices are ignored
// and persisted as zero; the bundle's own line carries the priced total.
type CartItem struct {
	ItemID     int64      `json:"id"`
	Name       string     `json:"name,omitempty"`
	ItemTypeID int        `json:"item_type_id"`
	Price      float64    `json:"price"`
	Quantity   int        `json:"quantity"`
	Color      *ColorRef  `json:"color"`
	Size       *SizeRef   `json:"size,omitempty"`
	SubItems   []CartItem `json:"products,omitempty"`
}

// InvoiceRequest is the checkout payload. Subtotal, Tax, and Total arrive
// precomputed by the client and are persisted as-is.
// TODO: recompute totals server-side from the line items before trusting them.
type InvoiceRequest struct {
	UserID        int64      `json:"user_id"`
	StateID       int64      `json:"state_id"`
	CityID        int64      `json:"city_id"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	PaymentTypeID int64      `json:"payment_type_id"`
	Cart          []CartItem `json:"cart"`
	Observations  string     `json:"observations"`
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
}

// Invoice is the header row written for one checkout, together with its
// lines. The shipping address travels as its raw tuple; the repository
// resolves it to an address row inside the transaction.
type Invoice struct {
	ID            int64
	UserID        int64
	CityID        int64
	Address       string
	Phone         string
	PaymentTypeID int64
	Discount      float64
	Total         float64
	Tax           float64
	TaxID         string
	Observations  string
	Lines         []InvoiceLine
}

// InvoiceLine is one persisted row per cart entry or bundle sub-item.
// A nil SizeID is stored as NULL.
type InvoiceLine struct {
	ItemID     int64
	ItemTypeID int
	ColorID    int64
	SizeID     *int64
	Quantity   int
	Price      float64
}

// PaymentType is a row from the payment_types lookup table.
type PaymentType struct {
	ID   int64  `json:"payment_type_id"`
	Name string `json:"name"`
}

// State is a row from the states lookup table.
type State struct {
	ID   int64  `json:"state_id"`
	Name string `json:"name"`
}

// City is a row from the cities lookup table.
type City struct {
	ID   int64  `json:"city_id"`
	Name string `json:"name"`
}
