package analytics

// Summary is the core dashboard rollup. Monetary fields are major currency
// units; cents are summed as integers in SQL and divided by 100 only here.
type Summary struct {
	TotalRevenue       float64        `json:"totalRevenue"`
	TotalOrders        int            `json:"totalOrders"`
	AvgOrderValue      float64        `json:"avgOrderValue"`
	AvgFulfillmentTime *float64       `json:"avgFulfillmentTime"` // minutes, nil when nothing completed
	CompletedOrders    int            `json:"completedOrders"`
	PendingOrders      int            `json:"pendingOrders"`
	HourlyData         []HourlyBucket `json:"hourlyData"`
	Comparison         *Comparison    `json:"comparison,omitempty"`
}

type HourlyBucket struct {
	Hour    string  `json:"hour"` // "HH:00"
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Comparison covers the immediately preceding period of equal duration.
// Only the three headline figures are recomputed.
type Comparison struct {
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type HourlySlot struct {
	Hour          int     `json:"hour"`
	DayOfWeek     int     `json:"dayOfWeek"` // 0 = Sunday
	OrderCount    int     `json:"orderCount"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type PeakHour struct {
	Hour       int     `json:"hour"`
	OrderCount int     `json:"orderCount"`
	Revenue    float64 `json:"revenue"`
}

type TopItem struct {
	ItemID        string `json:"itemId"`
	ItemName      string `json:"itemName"`
	TotalQuantity int    `json:"totalQuantity"`
	TotalRevenue  int64  `json:"totalRevenue"` // minor units
	OrderCount    int    `json:"orderCount"`
}
