package nordpool

import "time"

type dayAheadResponse struct {
	DeliveryDateCET  string           `json:"deliveryDateCET"`
	Market           string           `json:"market"`
	Currency         string           `json:"currency"`
	ResolutionInMin  int              `json:"resolutionInMinutes"`
	MultiAreaEntries []multiAreaEntry `json:"multiAreaEntries"`
}

type multiAreaEntry struct {
	DeliveryStart time.Time          `json:"deliveryStart"`
	DeliveryEnd   time.Time          `json:"deliveryEnd"`
	EntryPerArea  map[string]float64 `json:"entryPerArea"`
}
