package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "rms.orders"

// Publisher: mutfak ekranlarına sipariş olayları yayınlar.
// RABBITMQ_URL tanımlı değilse publisher nil kalır ve yayın sessizce atlanır;
// bildirim sistemi çekirdek akışı asla bloklamaz.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

var publisher *Publisher

func Init(url string) error {
	if url == "" {
		log.Println("RABBITMQ_URL tanımlı değil, sipariş bildirimleri devre dışı")
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("rabbitmq bağlantısı kurulamadı: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel açılamadı: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange tanımlanamadı: %w", err)
	}

	publisher = &Publisher{conn: conn, ch: ch}
	log.Println("RabbitMQ bağlantısı başarılı, sipariş bildirimleri aktif")
	return nil
}

func Close() {
	if publisher == nil {
		return
	}
	if publisher.ch != nil {
		_ = publisher.ch.Close()
	}
	if publisher.conn != nil {
		_ = publisher.conn.Close()
	}
	publisher = nil
}

type OrderEvent struct {
	Event      string    `json:"event"` // "created" | "status_changed"
	OrderID    uint      `json:"order_id"`
	BranchID   uint      `json:"branch_id"`
	Status     string    `json:"status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishOrderEvent: best-effort yayın. Hata sadece loglanır; sipariş akışı
// broker yüzünden asla başarısız olmaz.
func PublishOrderEvent(evt OrderEvent) {
	if publisher == nil {
		return
	}

	evt.OccurredAt = time.Now()

	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("sipariş olayı serileştirilemedi: %v", err)
		return
	}

	// Routing key: order.<şube>.<olay>, mutfak ekranı kendi şubesine abone olur
	key := fmt.Sprintf("order.%d.%s", evt.BranchID, evt.Event)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if err := publisher.ch.PublishWithContext(ctx, exchangeName, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   evt.OccurredAt,
		Body:        body,
	}); err != nil {
		log.Printf("sipariş olayı yayınlanamadı (%s): %v", key, err)
	}
}
