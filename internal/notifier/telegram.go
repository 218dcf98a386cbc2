package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// TelegramNotifier sends messages and photos via the Telegram Bot API to
// one or more chats.
type TelegramNotifier struct {
	BotToken string
	ChatIDs  []string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken string, chatIDs []string, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatIDs:  chatIDs,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Send delivers a text message to every configured chat. Delivery to at
// least one chat counts as success; per-chat failures are logged.
func (t *TelegramNotifier) Send(text string) error {
	return t.broadcast(func(chatID string) error {
		return t.sendMessage(chatID, text)
	})
}

// SendPhoto uploads a PNG with a caption to every configured chat.
func (t *TelegramNotifier) SendPhoto(photo []byte, caption string) error {
	return t.broadcast(func(chatID string) error {
		return t.sendPhoto(chatID, photo, caption)
	})
}

// SendPhotoWithRetry retries the full broadcast with exponential backoff.
func (t *TelegramNotifier) SendPhotoWithRetry(ctx context.Context, photo []byte, caption string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := t.SendPhoto(photo, caption); err != nil {
			lastErr = err
			if i == maxRetries {
				break
			}
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] Telegram photo send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

func (t *TelegramNotifier) broadcast(send func(chatID string) error) error {
	if len(t.ChatIDs) == 0 {
		return fmt.Errorf("no telegram chats configured")
	}
	delivered := 0
	var lastErr error
	for _, chatID := range t.ChatIDs {
		if err := send(chatID); err != nil {
			log.Printf("[WARN] telegram delivery to chat %s failed: %v", chatID, err)
			lastErr = err
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("telegram delivery failed for all %d chats: %w", len(t.ChatIDs), lastErr)
	}
	return nil
}

func (t *TelegramNotifier) sendMessage(chatID, text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.BotToken)
	payload := map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (t *TelegramNotifier) sendPhoto(chatID string, photo []byte, caption string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendPhoto", t.BotToken)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("chat_id", chatID); err != nil {
		return fmt.Errorf("write chat_id field: %w", err)
	}
	if err := w.WriteField("caption", caption); err != nil {
		return fmt.Errorf("write caption field: %w", err)
	}
	part, err := w.CreateFormFile("photo", "portfolio_chart.png")
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("write photo part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	resp, err := t.Client.Post(apiURL, w.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
