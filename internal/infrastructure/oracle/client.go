package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// Формат протокола сервиса сегментации
type predictResponse struct {
	Masks []struct {
		MaskB64 string  `json:"mask_b64"`
		Score   float64 `json:"score"`
	} `json:"masks"`
}

type pointPayload struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Label int `json:"label"` // 1 — внутри объекта, 0 — вне
}

type pointsPayload struct {
	Points []pointPayload `json:"points"`
}

// Client HTTP-клиент сервиса сегментации
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient создаёт клиента сервиса сегментации
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Segment запрашивает маски-кандидаты по изображению и точкам.
// Сервис возвращает кандидатов по убыванию оценки, первый считается лучшим.
func (c *Client) Segment(ctx context.Context, imageData []byte, points []entity.Point) ([]port.MaskCandidate, error) {
	body, contentType, err := buildRequestBody(imageData, points)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", port.ErrOracleUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
	}

	var parsed predictResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
	}

	candidates := make([]port.MaskCandidate, 0, len(parsed.Masks))
	for _, m := range parsed.Masks {
		mask, err := decodeMask(m.MaskB64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
		}
		candidates = append(candidates, port.MaskCandidate{Mask: mask, Score: m.Score})
	}

	c.logger.Debug("oracle responded",
		zap.Int("points", len(points)),
		zap.Int("candidates", len(candidates)),
		zap.Duration("cost", time.Since(start)))
	return candidates, nil
}

// buildRequestBody собирает multipart-тело запроса к оракулу
func buildRequestBody(imageData []byte, points []entity.Point) (*bytes.Buffer, string, error) {
	payload := pointsPayload{Points: make([]pointPayload, 0, len(points))}
	for _, p := range points {
		label := 0
		if p.Label == entity.LabelPositive {
			label = 1
		}
		payload.Points = append(payload.Points, pointPayload{X: p.X, Y: p.Y, Label: label})
	}
	pointsJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(imageData); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("points_json", string(pointsJSON)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// decodeMask разбирает маску принадлежности из base64 PNG в оттенках серого
func decodeMask(b64 string) (*entity.RawMask, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	mask := entity.NewRawMask(b.Dx(), b.Dy())
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			mask.Set(x, y, g.Y)
		}
	}
	return mask, nil
}

// Проверка реализации интерфейса
var _ port.SegmentationOracle = (*Client)(nil)
