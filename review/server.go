// Copyright 2025 The Concilia Authors
// SPDX-License-Identifier: Apache-2.0

// Package review serves a finished run over HTTP for local inspection.
package review

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/concilia/matcher"
	"github.com/jcodagnone/concilia/report"
	"github.com/jcodagnone/concilia/similarity"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Server exposes the results of a single run. It never mutates them.
type Server struct {
	input   string
	cfg     matcher.Config
	results []matcher.Result
	summary matcher.Summary
	folded  []string // accent-folded source names, parallel to results
}

// SummaryResponse is the body of GET /api/summary.
type SummaryResponse struct {
	Input  string          `json:"input"`
	Config matcher.Config  `json:"config"`
	Counts matcher.Summary `json:"counts"`
}

// ResultsResponse is the body of GET /api/results.
type ResultsResponse struct {
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Results []matcher.Result `json:"results"`
}

// NewServer returns a Server over results produced from input with cfg.
func NewServer(input string, cfg matcher.Config, results []matcher.Result) *Server {
	folded := make([]string, len(results))
	for i, r := range results {
		folded[i] = similarity.LowerASCIIFolding(r.SourceName)
	}

	return &Server{
		input:   input,
		cfg:     cfg,
		results: results,
		summary: matcher.Summarize(results),
		folded:  folded,
	}
}

// Register adds the API routes to r.
func (s *Server) Register(r gin.IRoutes) {
	r.GET("/api/summary", s.getSummary)
	r.GET("/api/results", s.listResults)
	r.GET("/api/cells", s.listCells)
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	r := gin.Default()
	s.Register(r)

	return r.Run(addr)
}

func (s *Server) getSummary(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, SummaryResponse{
		Input:  s.input,
		Config: s.cfg,
		Counts: s.summary,
	})
}

func (s *Server) listResults(ctx *gin.Context) {
	status := ctx.DefaultQuery("status", "all")
	if status != "all" && status != "matched" && status != "unmatched" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of all, matched, unmatched"})

		return
	}

	limit, ok := intParam(ctx, "limit", defaultLimit)
	if !ok || limit <= 0 || limit > maxLimit {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})

		return
	}

	offset, ok := intParam(ctx, "offset", 0)
	if !ok || offset < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset parameter"})

		return
	}

	q := similarity.LowerASCIIFolding(ctx.Query("q"))

	var filtered []matcher.Result

	for i, r := range s.results {
		switch {
		case status == "matched" && !r.Matched():
			continue
		case status == "unmatched" && r.Matched():
			continue
		case q != "" && !strings.Contains(s.folded[i], q):
			continue
		}

		filtered = append(filtered, r)
	}

	page := []matcher.Result{}
	if offset < len(filtered) {
		page = filtered[offset:min(len(filtered), offset+limit)]
	}

	ctx.JSON(http.StatusOK, ResultsResponse{
		Total:   len(filtered),
		Offset:  offset,
		Results: page,
	})
}

func (s *Server) listCells(ctx *gin.Context) {
	res, ok := intParam(ctx, "res", report.CellResolution)
	if !ok || res < 0 || res > 15 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid res parameter"})

		return
	}

	cells, err := report.RollupByCell(s.results, res)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, cells)
}

func intParam(ctx *gin.Context, name string, def int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return v, true
}
