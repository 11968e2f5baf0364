package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HowardHan99/codesignbot-sub001/internal/core/domain"
)

// EvaluatePointInput is the input schema for the evaluate_point tool.
type EvaluatePointInput struct {
	Text string `json:"text" jsonschema:"the design point text to score against the design proposal"`
}

// EvaluatePointOutput is the output schema for the evaluate_point tool.
type EvaluatePointOutput struct {
	Score    int    `json:"score"`
	Category string `json:"category"`
}

// PlacePointsInput is the input schema for the place_points tool.
type PlacePointsInput struct {
	Region string   `json:"region" jsonschema:"title of the target region"`
	Points []string `json:"points" jsonschema:"design point texts to classify and place, in order"`
}

// PlacePointsOutput is the output schema for the place_points tool.
type PlacePointsOutput struct {
	Attempted    int `json:"attempted"`
	Placed       int `json:"placed"`
	Deduplicated int `json:"deduplicated"`
	Failed       int `json:"failed"`
}

// RegionCardsInput is the input schema for the get_region_cards tool.
type RegionCardsInput struct {
	Region string `json:"region" jsonschema:"title of the region to list"`
}

// RegionCardsOutput is the output schema for the get_region_cards tool.
type RegionCardsOutput struct {
	Cards []string `json:"cards"`
	Count int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_point",
		Description: "Score a design point's relevance against the board's design proposal",
	}, s.handleEvaluatePoint)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "place_points",
		Description: "Classify design points and place one card per point inside a region",
	}, s.handlePlacePoints)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_region_cards",
		Description: "List the card texts currently inside a region",
	}, s.handleRegionCards)
}

// handleEvaluatePoint handles the evaluate_point tool invocation.
func (s *Server) handleEvaluatePoint(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluatePointInput,
) (*mcp.CallToolResult, EvaluatePointOutput, error) {
	point := domain.DesignPoint{ID: uuid.New().String(), Text: input.Text}

	var corpus domain.ReferenceCorpus
	if s.ports.Corpus != nil {
		corpus = s.ports.Corpus.Corpus(ctx)
	}

	eval := s.ports.Classifier.Evaluate(ctx, point, corpus)
	return nil, EvaluatePointOutput{
		Score:    eval.Score,
		Category: string(eval.Category),
	}, nil
}

// handlePlacePoints handles the place_points tool invocation.
func (s *Server) handlePlacePoints(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlacePointsInput,
) (*mcp.CallToolResult, PlacePointsOutput, error) {
	points := make([]domain.DesignPoint, 0, len(input.Points))
	for _, text := range input.Points {
		points = append(points, domain.DesignPoint{ID: uuid.New().String(), Text: text})
	}

	session := domain.NewSession(uuid.New().String(), s.ports.Scale)
	report, err := s.ports.Placer.PlacePoints(ctx, session, input.Region, points)
	if err != nil {
		return nil, PlacePointsOutput{}, err
	}

	return nil, PlacePointsOutput{
		Attempted:    report.Attempted,
		Placed:       report.Placed,
		Deduplicated: report.Deduplicated,
		Failed:       report.Failed,
	}, nil
}

// handleRegionCards handles the get_region_cards tool invocation.
func (s *Server) handleRegionCards(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RegionCardsInput,
) (*mcp.CallToolResult, RegionCardsOutput, error) {
	region, err := s.ports.Regions.EnsureRegion(ctx, input.Region, domain.LayoutScoreSectioned)
	if err != nil {
		return nil, RegionCardsOutput{}, err
	}

	cards, err := s.ports.Regions.Contents(ctx, region)
	if err != nil {
		return nil, RegionCardsOutput{}, err
	}

	return nil, RegionCardsOutput{Cards: cards, Count: len(cards)}, nil
}
