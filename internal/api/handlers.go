package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/pipeline"
	"github.com/shelfminer/shelfminer/internal/types"
)

// SiteInfo describes one enabled site profile.
type SiteInfo struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
}

// ScrapeRequest selects a site and limit for a scrape run.
type ScrapeRequest struct {
	Site        string `json:"site"`
	URL         string `json:"url"`
	MaxProducts int    `json:"maxProducts"`
}

// ScrapeResponse carries the canonical records of one run.
type ScrapeResponse struct {
	Success  bool                     `json:"success"`
	Products []types.CanonicalProduct `json:"products"`
	Count    int                      `json:"count"`
	Site     string                   `json:"site"`
	URL      string                   `json:"url"`
	RunID    string                   `json:"runId"`
}

// ProcessRequest carries caller-supplied names for the normalization
// and brand stages only.
type ProcessRequest struct {
	ProductNames []string `json:"productNames"`
}

// ProcessedProduct is the frontend-facing shape of a processed name.
type ProcessedProduct struct {
	OriginalName  string `json:"originalName"`
	CleanedName   string `json:"cleanedName"`
	DetectedBrand string `json:"detectedBrand"`
	Price         string `json:"price"`
	VolumeWeight  string `json:"volumeWeight"`
}

// ProcessResponse carries processed names.
type ProcessResponse struct {
	Success  bool               `json:"success"`
	Products []ProcessedProduct `json:"products"`
	Count    int                `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Scraper API is running",
		"version": config.Version,
	})
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	sites := make([]SiteInfo, 0)
	for _, site := range s.cfg.EnabledSites() {
		sites = append(sites, SiteInfo{
			Key:     site.Key,
			Name:    site.Name,
			BaseURL: site.BaseURL,
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"sites": sites})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Site == "custom" && req.URL == "" {
		s.respondError(w, http.StatusBadRequest, `URL is required when site is "custom"`)
		return
	}
	if req.MaxProducts > s.cfg.API.MaxProductsCap {
		req.MaxProducts = s.cfg.API.MaxProductsCap
	}

	result, err := s.pipeline.Run(r.Context(), pipeline.Options{
		SiteKey:     req.Site,
		CustomURL:   req.URL,
		MaxProducts: req.MaxProducts,
	})
	if err != nil {
		var cfgErr *types.ConfigError
		if errors.As(err, &cfgErr) {
			s.respondError(w, http.StatusBadRequest, cfgErr.Error())
			return
		}
		s.logger.Error("scrape failed", "site", req.Site, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ScrapeResponse{
		Success:  true,
		Products: result.Products,
		Count:    len(result.Products),
		Site:     result.SiteKey,
		URL:      result.SourceURL,
		RunID:    result.RunID,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ProductNames) == 0 {
		s.respondError(w, http.StatusBadRequest, "productNames array is required")
		return
	}

	products := s.pipeline.Process(req.ProductNames)
	out := make([]ProcessedProduct, len(products))
	for i, p := range products {
		out[i] = ProcessedProduct{
			OriginalName:  p.OriginalName,
			CleanedName:   p.Name,
			DetectedBrand: p.Brand,
			Price:         p.Price,
			VolumeWeight:  p.VolumeWeight,
		}
	}

	s.respondJSON(w, http.StatusOK, ProcessResponse{
		Success:  true,
		Products: out,
		Count:    len(out),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
