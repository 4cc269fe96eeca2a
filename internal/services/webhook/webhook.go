package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/groupwallet/gate/pkg/multisig"
)

type Message struct {
	Content string `json:"content"`
}

// Messager posts wallet activity to a webhook URL. With notify disabled it
// is a no-op, which keeps the wiring unconditional.
type Messager struct {
	BaseURL    string
	WalletName string

	notify bool
}

func NewMessager(baseURL, walletName string, notify bool) multisig.Notifier {
	return &Messager{
		BaseURL:    baseURL,
		WalletName: walletName,
		notify:     notify,
	}
}

func (m *Messager) send(ctx context.Context, content string) error {
	if !m.notify {
		return nil
	}

	data, err := json.Marshal(Message{Content: fmt.Sprintf("[%s] %s", m.WalletName, content)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("error sending message")
	}

	return nil
}

func (m *Messager) Notify(ctx context.Context, message string) error {
	return m.send(ctx, message)
}

func (m *Messager) NotifyWarning(ctx context.Context, errorMessage error) error {
	return m.send(ctx, fmt.Sprintf("warning: %s", errorMessage.Error()))
}

func (m *Messager) NotifyError(ctx context.Context, errorMessage error) error {
	return m.send(ctx, fmt.Sprintf("error: %s", errorMessage.Error()))
}
