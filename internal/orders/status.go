package orders

import "rms-backend/internal/models"

// Sipariş durum makinesi: pending -> preparing -> ready -> served.
// İptal servis edilene kadar mümkündür; uç durumlar değiştirilemez.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:     {models.OrderStatusServed, models.OrderStatusCancelled},
	models.OrderStatusServed:    {},
	models.OrderStatusCancelled: {},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
