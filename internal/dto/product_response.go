package dto

type ProductQuantityResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	NewQuantity int64  `json:"quantity"`
}
