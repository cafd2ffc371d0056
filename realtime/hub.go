package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types
const (
	EventTableClaimed  = "table_claimed"
	EventTableReleased = "table_released"
	EventOrderUpdated  = "order_updated"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FloorHub menampung semua client floor view (waiter, supervisor) dan
// menyiarkan perubahan state meja/order. Delivery best-effort: client
// yang gagal menerima tetap bisa re-fetch state dari API.
type FloorHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = FloorHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// BroadcastTableClaimed -> meja berpindah ke occupied
func BroadcastTableClaimed(tableNumber int) {
	broadcast(Message{
		Event: EventTableClaimed,
		Data:  map[string]interface{}{"table_number": tableNumber},
	})
}

// BroadcastTableReleased -> meja kembali available
func BroadcastTableReleased(tableNumber int) {
	broadcast(Message{
		Event: EventTableReleased,
		Data:  map[string]interface{}{"table_number": tableNumber},
	})
}

// BroadcastOrderUpdated -> order dibuat/diubah/difinalisasi
func BroadcastOrderUpdated(orderID uint, orderCode string, tableNumber int) {
	broadcast(Message{
		Event: EventOrderUpdated,
		Data: map[string]interface{}{
			"order_id":     orderID,
			"order_code":   orderCode,
			"table_number": tableNumber,
		},
	})
}

// broadcast -> fungsi internal untuk mengirim pesan ke semua client
func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range floorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s to client (role=%s): %v", msg.Event, role, err)
			continue
		}
	}
}
