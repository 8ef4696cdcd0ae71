package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"genesis-backend/internal/model"
	"genesis-backend/internal/utils"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// transcript is the YAML shape of an exported conversation.
type transcript struct {
	SessionID  string              `yaml:"session_id"`
	ExportedAt time.Time           `yaml:"exported_at"`
	Messages   []transcriptMessage `yaml:"messages"`
}

type transcriptMessage struct {
	Role      string    `yaml:"role"`
	Content   string    `yaml:"content"`
	Model     string    `yaml:"model,omitempty"`
	Component string    `yaml:"component,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

func newTranscript(sessionID string, msgs []model.Message) *transcript {
	t := &transcript{SessionID: sessionID, ExportedAt: time.Now().UTC()}
	for _, m := range msgs {
		t.Messages = append(t.Messages, transcriptMessage{
			Role:      m.Role,
			Content:   m.Content,
			Model:     m.Model,
			Component: m.ComponentCode,
			Timestamp: m.Timestamp,
		})
	}
	return t
}

func encodeTranscript(w io.Writer, t *transcript) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(t)
}

// writeTranscript writes msgs to path, or to stdout when path is "-".
func writeTranscript(path, sessionID string, msgs []model.Message) error {
	t := newTranscript(sessionID, msgs)
	if path == "-" {
		return encodeTranscript(os.Stdout, t)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	defer f.Close()
	return encodeTranscript(f, t)
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a stored conversation as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := fetchMessages(cmd, args[0])
		if err != nil {
			return err
		}
		return writeTranscript(exportOutput, args[0], msgs)
	},
}

func fetchMessages(cmd *cobra.Command, sessionID string) ([]model.Message, error) {
	endpoint := strings.TrimSuffix(serverURL, "/") + "/api/session/" + url.PathEscape(sessionID) + "/messages"
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := utils.NewHTTPClient(30 * time.Second).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch session: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Messages []model.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid session response: %w", err)
	}
	return body.Messages, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "Output file, - for stdout")
}
