// Package pb holds the wire messages and service descriptor of
// inventory.v1.InventoryService. Messages travel as JSON.
package pb

type Item struct {
	Id       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type CreateItemRequest struct {
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type CreateItemResponse struct {
	Item *Item `json:"item"`
}

type ListItemsRequest struct{}

type ListItemsResponse struct {
	Items []*Item `json:"items"`
}

type UpdateItemRequest struct {
	Id       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type UpdateItemResponse struct {
	Item *Item `json:"item"`
}

type DeleteItemRequest struct {
	Id int64 `json:"id"`
}

type DeleteItemResponse struct{}

type PurchaseItemRequest struct {
	Id        int64  `json:"id"`
	RequestId string `json:"request_id,omitempty"`
}

type PurchaseItemResponse struct {
	SaleId  int64  `json:"sale_id"`
	Message string `json:"message"`
}

type GetPriceRequest struct {
	Id int64 `json:"id"`
}

type GetPriceResponse struct {
	Name              string  `json:"name"`
	Demand            int32   `json:"demand"`
	Quantity          int32   `json:"quantity"`
	Price             float64 `json:"price"`
	DemandSensitivity float64 `json:"demand_sensitivity"`
	StockSensitivity  float64 `json:"stock_sensitivity"`
}
