package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"guildlife.ai/internal/protocol"
)

// GuestAction is one guest request handed to the host loop.
type GuestAction struct {
	PlayerID string
	Msg      protocol.ActionMsg
}

// Host is the authoritative game loop the transport feeds. Guests
// never simulate; everything they do goes through here.
type Host interface {
	// Join admits a guest by room code and returns their player id.
	// out receives every broadcast frame for this connection.
	Join(roomCode, playerName string, out chan []byte) (playerID string, errCode string)
	Inbox() chan<- GuestAction
	Leave(playerID string)
}

type Server struct {
	host Host
	log  *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(h Host, logger *log.Logger) *Server {
	return &Server{
		host: h,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(conn)
		if playerID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAction {
				continue
			}
			var act protocol.ActionMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				continue
			}
			act.PlayerID = playerID // never trust the wire id
			s.host.Inbox() <- GuestAction{PlayerID: playerID, Msg: act}
		}

		s.host.Leave(playerID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (playerID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		s.closePolicy(conn, "expected HELLO")
		return "", nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		s.closePolicy(conn, "bad protocol_version")
		return "", nil
	}
	if hello.PlayerName == "" {
		hello.PlayerName = "guest"
	}

	out = make(chan []byte, 32)
	id, errCode := s.host.Join(hello.RoomCode, hello.PlayerName, out)
	if errCode != "" {
		b, _ := json.Marshal(protocol.ErrorMsg{
			Type:            protocol.TypeError,
			ProtocolVersion: protocol.Version,
			Code:            errCode,
			Message:         "join refused",
		})
		_ = conn.WriteMessage(websocket.TextMessage, b)
		return "", nil
	}
	return id, out
}

func (s *Server) closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}
