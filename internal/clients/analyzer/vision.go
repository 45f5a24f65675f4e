package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/greenloop/greenloop-backend/internal/clients/gcp"
	"github.com/greenloop/greenloop-backend/internal/logger"
)

// materialAliases maps a material name to object labels Cloud Vision is
// likely to emit for it. Matching is case-insensitive substring both ways.
var materialAliases = map[string][]string{
	"plastic":   {"bottle", "plastic bottle", "plastic container"},
	"glass":     {"bottle", "glass bottle", "jar"},
	"aluminum":  {"can", "tin can", "beverage can"},
	"paper":     {"paper", "cardboard", "box", "carton"},
	"cardboard": {"cardboard", "box", "carton"},
}

type visionAnalyzer struct {
	log          *logger.Logger
	visionClient *vision.ImageAnnotatorClient
	blurCutoff   float64
}

// NewVisionAnalyzer verifies claims with Cloud Vision object localization
// instead of the external analyzer service. Selected with
// ANALYZER_PROVIDER=gcp_vision.
func NewVisionAnalyzer(log *logger.Logger) (Analyzer, error) {
	ctx := context.Background()
	vClient, err := vision.NewImageAnnotatorClient(ctx, gcp.ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &visionAnalyzer{
		log:          log.With("client", "VisionAnalyzer"),
		visionClient: vClient,
		blurCutoff:   0.30,
	}, nil
}

func (a *visionAnalyzer) Close() error {
	if a.visionClient != nil {
		return a.visionClient.Close()
	}
	return nil
}

func (a *visionAnalyzer) AnalyzeClaim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	annotateReq := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{
			Source: &visionpb.ImageSource{ImageUri: req.ImageURL},
		},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: 50},
		},
	}
	batch := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{annotateReq},
	}

	resp, err := a.visionClient.BatchAnnotateImages(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return nil, fmt.Errorf("vision returned empty response")
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	return interpretObjects(req, r0.LocalizedObjectAnnotations, a.blurCutoff), nil
}

// interpretObjects maps raw object annotations onto the claim verdict
// contract shared with the external analyzer.
func interpretObjects(req ClaimRequest, objects []*visionpb.LocalizedObjectAnnotation, blurCutoff float64) *ClaimResult {
	if len(objects) == 0 {
		return &ClaimResult{
			Status:         StatusReject,
			StatusReason:   ReasonNoItemsDetected,
			FailureMessage: "No recyclable items were detected in the photo.",
		}
	}

	matched := 0
	topName := ""
	topScore := 0.0
	var matchedBest float64
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		score := float64(obj.Score)
		if score > topScore {
			topScore = score
			topName = obj.Name
		}
		if labelMatchesMaterial(obj.Name, req.MaterialName) {
			matched++
			if score > matchedBest {
				matchedBest = score
			}
		}
	}

	if topScore < blurCutoff {
		return &ClaimResult{
			Status:         StatusReject,
			ItemName:       topName,
			StatusReason:   ReasonImageNotClear,
			FailureMessage: "The photo is too blurry to verify the items.",
			Confidence:     topScore,
		}
	}
	if matched == 0 {
		return &ClaimResult{
			Status:         StatusReject,
			ItemName:       topName,
			StatusReason:   ReasonMaterialMismatch,
			FailureMessage: fmt.Sprintf("The items in the photo look like %q, not %s.", topName, req.MaterialName),
			Confidence:     topScore,
		}
	}
	if req.MinConfidence > 0 && matchedBest < req.MinConfidence {
		return &ClaimResult{
			Status:         StatusReject,
			ItemName:       req.MaterialName,
			StatusReason:   ReasonLowConfidence,
			FailureMessage: fmt.Sprintf("Could not verify the items with enough confidence (%.0f%%).", matchedBest*100),
			Confidence:     matchedBest,
		}
	}
	if matched != req.ClaimedCount {
		return &ClaimResult{
			Status:         StatusReject,
			ItemName:       req.MaterialName,
			StatusReason:   ReasonCountDiscrepancy,
			FailureMessage: fmt.Sprintf("Counted %d item(s) in the photo but %d were claimed.", matched, req.ClaimedCount),
			Confidence:     matchedBest,
		}
	}

	return &ClaimResult{
		Status:     StatusAccept,
		ItemName:   req.MaterialName,
		Confidence: matchedBest,
	}
}

func labelMatchesMaterial(label, material string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	m := strings.ToLower(strings.TrimSpace(material))
	if l == "" || m == "" {
		return false
	}
	if strings.Contains(l, m) || strings.Contains(m, l) {
		return true
	}
	for key, aliases := range materialAliases {
		if !strings.Contains(m, key) {
			continue
		}
		for _, alias := range aliases {
			if strings.Contains(l, alias) {
				return true
			}
		}
	}
	return false
}
