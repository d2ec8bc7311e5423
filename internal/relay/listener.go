package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// listener owns one WebSocket connection. Only writePump writes to conn.
type listener struct {
	conn         *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration

	once sync.Once
	done chan struct{}
}

func newListener(conn *websocket.Conn, writeTimeout time.Duration) *listener {
	return &listener{
		conn:         conn,
		send:         make(chan []byte, 1),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
}

// offer queues msg, replacing any snapshot the listener has not sent yet.
// A slow listener only ever misses stale readings.
func (l *listener) offer(msg []byte) {
	select {
	case <-l.done:
		return
	default:
	}
	for {
		select {
		case l.send <- msg:
			return
		default:
		}
		select {
		case <-l.send:
		default:
		}
	}
}

func (l *listener) writePump() {
	for {
		select {
		case <-l.done:
			return
		case msg := <-l.send:
			_ = l.conn.SetWriteDeadline(time.Now().Add(l.writeTimeout))
			if err := l.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				l.close()
				return
			}
		}
	}
}

// readPump discards inbound frames and returns when the peer goes away.
func (l *listener) readPump() {
	for {
		if _, _, err := l.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (l *listener) close() {
	l.once.Do(func() {
		close(l.done)
		l.conn.Close()
	})
}
