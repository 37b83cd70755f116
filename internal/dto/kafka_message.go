package dto

const EventProductQuantityUpdated = "product_quantity_updated"

type KafkaMessage struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}
