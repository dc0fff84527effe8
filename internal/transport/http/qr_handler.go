package http

import (
	"encoding/base64"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"
)

// QRHandler serves a QR code pointing clients at the join URL.
type QRHandler struct {
	url string
	log *zerolog.Logger
}

// NewQRHandler creates the QR handler. When url is empty the join URL is
// derived from the first non-loopback IPv4 address.
func NewQRHandler(url string, logger *zerolog.Logger) *QRHandler {
	if url == "" {
		url = "http://" + LocalIP() + ":5173"
	}
	return &QRHandler{url: url, log: logger}
}

// QRResponse carries the encoded QR image and the URL it points at.
type QRResponse struct {
	QRCode string `json:"qrCode"`
	URL    string `json:"url"`
}

// GetQR returns the join URL as a PNG data URL.
// GET /api/qr
func (h *QRHandler) GetQR(c *gin.Context) {
	png, err := qrcode.Encode(h.url, qrcode.Medium, 256)
	if err != nil {
		h.log.Error().Err(err).Str("url", h.url).Msg("failed to encode qr code")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate QR code"})
		return
	}

	c.JSON(http.StatusOK, QRResponse{
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		URL:    h.url,
	})
}

// LocalIP returns the machine's first non-loopback IPv4 address, or
// "localhost" when none is found.
func LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "localhost"
}
