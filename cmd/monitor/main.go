// monitor: tail the wallscan session event feed
//
// Connects to the service's /ws/events endpoint and prints session
// events as they happen. Binary messages are preview frames and are
// reported by size only.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

var addr = flag.String("addr", "localhost:8080", "wallscan service address")

func main() {
	flag.Parse()

	url := fmt.Sprintf("ws://%s/ws/events", *addr)
	fmt.Printf("📡 Connecting to %s...\n", url)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("❌ Connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Println("✅ Connected, waiting for events (Ctrl+C to stop)")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				fmt.Printf("Connection closed: %v\n", err)
				return
			}

			if msgType == websocket.BinaryMessage {
				fmt.Printf("%s  preview frame (%d KB)\n",
					time.Now().Format("15:04:05"), len(data)/1024)
				continue
			}

			var event struct {
				Time    time.Time `json:"time"`
				Session string    `json:"session"`
				Kind    string    `json:"kind"`
				From    string    `json:"from"`
				To      string    `json:"to"`
				Message string    `json:"message"`
			}
			if err := json.Unmarshal(data, &event); err != nil {
				fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), string(data))
				continue
			}

			switch event.Kind {
			case "transition":
				fmt.Printf("%s  [%s] %s → %s\n",
					event.Time.Local().Format("15:04:05"), event.Session, event.From, event.To)
			case "result":
				fmt.Printf("%s  [%s] measurement complete\n",
					event.Time.Local().Format("15:04:05"), event.Session)
			case "quote":
				fmt.Printf("%s  [%s] quote submitted\n",
					event.Time.Local().Format("15:04:05"), event.Session)
			default:
				fmt.Printf("%s  [%s] %s %s\n",
					event.Time.Local().Format("15:04:05"), event.Session, event.Kind, event.Message)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		fmt.Println("\n👋 Goodbye!")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	case <-done:
	}
}
