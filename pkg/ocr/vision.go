package ocr

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"

	"receipt-rewards/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	gigaChatOAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	gigaChatBaseURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	gigaChatModel    = "GigaChat"

	visionPrompt = `Transcribe all text printed on this purchase receipt exactly as it appears, line by line.
Return only the receipt text with no commentary. Keep product names, quantities, prices, totals, dates and the store name.
If nothing is readable, return an empty string.`
)

var refusalPhrases = []string{
	"cannot help",
	"cannot process",
	"please provide",
	"i'm sorry",
	"не могу помочь",
	"не могу обработать",
	"не могу извлечь",
}

// Vision recognizes receipts with the GigaChat vision API: the image is
// uploaded as a file and attached to a chat completion request.
type Vision struct {
	cfg        *config.GigaChatConfig
	httpClient *http.Client
	oauthURL   string
	baseURL    string
	logger     *zap.Logger

	mu          sync.Mutex
	accessToken string
}

func NewVision(cfg *config.GigaChatConfig, logger *zap.Logger) *Vision {
	httpClient := &http.Client{}
	if cfg.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	return &Vision{
		cfg:        cfg,
		httpClient: httpClient,
		oauthURL:   gigaChatOAuthURL,
		baseURL:    gigaChatBaseURL,
		logger:     logger,
	}
}

func (v *Vision) Name() string {
	return "gigachat-vision"
}

func (v *Vision) Recognize(ctx context.Context, image []byte) (Result, error) {
	fileID, err := v.withToken(ctx, func(token string) (string, int, error) {
		return v.upload(ctx, token, image)
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload file: %w", err)
	}

	text, err := v.withToken(ctx, func(token string) (string, int, error) {
		return v.complete(ctx, token, fileID)
	})
	if err != nil {
		return Result{}, err
	}

	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			v.logger.Warn("Vision model returned a refusal instead of text", zap.String("message", text))
			return Result{}, fmt.Errorf("%w: %s", ErrVisionRefusal, text)
		}
	}
	if text == "" {
		return Result{}, ErrNoText
	}

	v.logger.Info("Text extracted via GigaChat Vision", zap.Int("text_length", len(text)))
	return Result{Text: text}, nil
}

// withToken runs call with a cached access token and retries once with a
// fresh token when the API answers 401.
func (v *Vision) withToken(ctx context.Context, call func(token string) (string, int, error)) (string, error) {
	token, err := v.token(ctx, false)
	if err != nil {
		return "", err
	}

	out, status, err := call(token)
	if status != http.StatusUnauthorized {
		return out, err
	}

	token, err = v.token(ctx, true)
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	out, _, err = call(token)
	return out, err
}

func (v *Vision) token(ctx context.Context, refresh bool) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.accessToken != "" && !refresh {
		return v.accessToken, nil
	}

	rqUID := uuid.New().String()
	formData := url.Values{}
	formData.Set("scope", v.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.oauthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", rqUID)
	// the key is issued already Base64-encoded
	req.Header.Set("Authorization", "Basic "+v.cfg.APIKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		v.logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("rq_uid", rqUID),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	v.accessToken = oauthResp.AccessToken
	return v.accessToken, nil
}

func (v *Vision) upload(ctx context.Context, token string, image []byte) (string, int, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// "general" lets the file be attached to completion requests
	if err := writer.WriteField("purpose", "general"); err != nil {
		return "", 0, fmt.Errorf("failed to write purpose field: %w", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", http.DetectContentType(image))
	header.Set("Content-Disposition", `form-data; name="file"; filename="receipt"`)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", 0, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/files", &body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", resp.StatusCode, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return uploadResp.ID, resp.StatusCode, nil
}

func (v *Vision) complete(ctx context.Context, token, fileID string) (string, int, error) {
	requestBody := map[string]interface{}{
		"model": gigaChatModel,
		"messages": []map[string]interface{}{
			{
				"role":        "user",
				"content":     visionPrompt,
				"attachments": []string{fileID},
			},
		},
		"temperature": 0.1,
		"stream":      false,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", resp.StatusCode, fmt.Errorf("vision API failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var visionResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&visionResp); err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(visionResp.Choices) == 0 {
		return "", resp.StatusCode, fmt.Errorf("no response from Vision API")
	}
	return visionResp.Choices[0].Message.Content, resp.StatusCode, nil
}
