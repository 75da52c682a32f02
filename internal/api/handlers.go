// Package api exposes the mockup service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/mockupapp/internal/compositor"
	"github.com/youruser/mockupapp/internal/errs"
	"github.com/youruser/mockupapp/internal/export"
	"github.com/youruser/mockupapp/internal/geometry"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/mockup"
	"github.com/youruser/mockupapp/internal/scene"
)

// Restorer is the part of the mockup service the handlers use.
type Restorer interface {
	Restore(ctx context.Context, req mockup.Request) (*mockup.Output, error)
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// Handler serves the mockup endpoints.
type Handler struct {
	svc     Restorer
	log     *log.Logger
	maxBody int64
}

// NewHandler returns a Handler. maxBody caps request bodies; zero means 10 MiB.
func NewHandler(svc Restorer, l *log.Logger, maxBody int64) *Handler {
	if maxBody <= 0 {
		maxBody = 10 << 20
	}
	if l == nil {
		l = log.Default()
	}
	return &Handler{svc: svc, log: l, maxBody: maxBody}
}

type restoreResponse struct {
	Success        bool              `json:"success"`
	MockupID       string            `json:"mockupId"`
	OutputPath     string            `json:"outputPath"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Skipped        []compositor.Skip `json:"skipped"`
	ProcessingTime string            `json:"processingTime"`
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// restore renders the posted scene. ?width=N or ?multiplier=K override the
// output resolution; ?format=png answers with the image itself.
func (h *Handler) restore(c *gin.Context) {
	out, err := outputFromQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	sc, err := scene.Decode(body)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.svc.Restore(c.Request.Context(), mockup.Request{Scene: sc, Output: out})
	if err != nil {
		h.fail(c, err)
		return
	}
	if c.Query("format") == "png" {
		c.Header("X-Mockup-Id", res.MockupID)
		c.Data(http.StatusOK, "image/png", res.PNG)
		return
	}
	c.JSON(http.StatusOK, restoreResponse{
		Success:        true,
		MockupID:       res.MockupID,
		OutputPath:     res.StoredPath,
		Width:          res.Width,
		Height:         res.Height,
		Skipped:        res.Skipped,
		ProcessingTime: res.Duration.Round(time.Millisecond).String(),
	})
}

// image returns a stored mockup as PNG. ?size=N scales it down so the
// longest side is at most N pixels.
func (h *Handler) image(c *gin.Context) {
	data, err := h.svc.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if v := c.Query("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			h.fail(c, errs.New(errs.CodeInvalidInput, "size %q must be an integer", v))
			return
		}
		thumb, err := imagepkg.ThumbnailPNG(data, size)
		if err != nil {
			h.fail(c, err)
			return
		}
		if data, err = (export.Encoder{}).Encode(thumb); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.Data(http.StatusOK, "image/png", data)
}

func outputFromQuery(c *gin.Context) (geometry.Output, error) {
	var out geometry.Output
	if v := c.Query("width"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil || w <= 0 {
			return out, errs.New(errs.CodeInvalidInput, "width %q must be a positive integer", v)
		}
		out.Width = w
	}
	if v := c.Query("multiplier"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m <= 0 {
			return out, errs.New(errs.CodeInvalidInput, "multiplier %q must be a positive number", v)
		}
		out.Multiplier = m
	}
	return out, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	code := errs.CodeOf(err)
	if errors.Is(err, errs.ErrNotFound) {
		code = "NOT_FOUND"
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "err", err)
	} else {
		h.log.Warn("request rejected", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": err.Error()},
	})
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	}
	switch errs.CodeOf(err) {
	case errs.CodeInvalidInput:
		return http.StatusBadRequest
	case errs.CodeInvalidGeometry, errs.CodeSurfaceInitFailed,
		errs.CodeReferenceNotFound, errs.CodeFileNotFound,
		errs.CodeUnsupportedFormat, errs.CodeDecodeFailed:
		return http.StatusUnprocessableEntity
	case errs.CodeDownloadFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
