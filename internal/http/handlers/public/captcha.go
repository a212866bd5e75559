package public

import (
	"net/http"

	"github.com/dollers-electro/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCaptcha issues an image captcha for the admin login form.
func (h *Handler) GetCaptcha(c *gin.Context) {
	if !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}

	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate captcha", err)
		return
	}

	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
