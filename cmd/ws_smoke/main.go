// Command ws_smoke registers a throwaway user against a running server,
// completes one daily task and waits for the reward event on /ws.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"time"

	"questline/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func main() {
	base := flag.String("addr", "127.0.0.1:8080", "server host:port")
	flag.Parse()

	logger.Init("info", false)
	api := "http://" + *base + "/api"

	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])
	var auth struct {
		Token string `json:"token"`
	}
	post(api+"/auth/register", "", map[string]any{
		"email":    email,
		"username": "smoke",
		"password": "smoke-password",
	}, &auth)

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", *base, auth.Token), nil)
	if err != nil {
		logger.Fatal("dial ws", "error", err)
	}
	defer conn.Close()

	var task struct {
		ID int64 `json:"id"`
	}
	post(api+"/tasks", auth.Token, map[string]any{
		"title":      "Smoke test",
		"type":       "daily",
		"xpReward":   50,
		"coinReward": 10,
	}, &task)

	var result map[string]any
	post(fmt.Sprintf("%s/tasks/%d/complete", api, task.ID), auth.Token, nil, &result)
	logger.Info("task completed", "result", result)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		logger.Info("ws message", "type", obj["type"])
		if obj["type"] == "reward" {
			logger.Info("smoke test finished")
			return
		}
	}
	logger.Fatal("no reward event received")
}

func post(url, token string, body any, out any) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			logger.Fatal("encode body", "error", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		logger.Fatal("build request", "url", url, "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("request failed", "url", url, "error", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Fatal("unexpected status", "url", url, "status", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Fatal("decode response", "url", url, "error", err)
	}
}
