package analyzer

import (
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

func obj(name string, score float32) *visionpb.LocalizedObjectAnnotation {
	return &visionpb.LocalizedObjectAnnotation{Name: name, Score: score}
}

func TestInterpretObjects(t *testing.T) {
	req := ClaimRequest{MaterialName: "Plastic", ClaimedCount: 2, MinConfidence: 0.7}

	cases := []struct {
		name       string
		objects    []*visionpb.LocalizedObjectAnnotation
		wantStatus string
		wantReason string
	}{
		{
			name:       "no objects",
			objects:    nil,
			wantStatus: StatusReject,
			wantReason: ReasonNoItemsDetected,
		},
		{
			name:       "blurry image",
			objects:    []*visionpb.LocalizedObjectAnnotation{obj("Bottle", 0.2)},
			wantStatus: StatusReject,
			wantReason: ReasonImageNotClear,
		},
		{
			name:       "wrong material",
			objects:    []*visionpb.LocalizedObjectAnnotation{obj("Shoe", 0.9), obj("Chair", 0.8)},
			wantStatus: StatusReject,
			wantReason: ReasonMaterialMismatch,
		},
		{
			name:       "matched below confidence threshold",
			objects:    []*visionpb.LocalizedObjectAnnotation{obj("Plastic bottle", 0.5), obj("Shoe", 0.9)},
			wantStatus: StatusReject,
			wantReason: ReasonLowConfidence,
		},
		{
			name:       "fewer items than claimed",
			objects:    []*visionpb.LocalizedObjectAnnotation{obj("Plastic bottle", 0.9)},
			wantStatus: StatusReject,
			wantReason: ReasonCountDiscrepancy,
		},
		{
			name: "more items than claimed",
			objects: []*visionpb.LocalizedObjectAnnotation{
				obj("Plastic bottle", 0.9), obj("Bottle", 0.85), obj("Plastic container", 0.8),
			},
			wantStatus: StatusReject,
			wantReason: ReasonCountDiscrepancy,
		},
		{
			name: "accepted",
			objects: []*visionpb.LocalizedObjectAnnotation{
				obj("Plastic bottle", 0.92), obj("Bottle", 0.88),
			},
			wantStatus: StatusAccept,
			wantReason: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := interpretObjects(req, tc.objects, 0.30)
			if result.Status != tc.wantStatus {
				t.Errorf("status: want=%q got=%q", tc.wantStatus, result.Status)
			}
			if result.StatusReason != tc.wantReason {
				t.Errorf("reason: want=%q got=%q", tc.wantReason, result.StatusReason)
			}
			if tc.wantStatus == StatusAccept && result.ItemName != req.MaterialName {
				t.Errorf("accepted item name: want=%q got=%q", req.MaterialName, result.ItemName)
			}
			if tc.wantStatus == StatusReject && result.FailureMessage == "" {
				t.Errorf("rejections must carry a failure message")
			}
		})
	}
}

func TestLabelMatchesMaterial(t *testing.T) {
	cases := []struct {
		label    string
		material string
		want     bool
	}{
		{"Plastic bottle", "Plastic", true},
		{"Bottle", "Plastic", true},
		{"Tin can", "Aluminum", true},
		{"Carton", "Paper", true},
		{"Shoe", "Plastic", false},
		{"", "Plastic", false},
		{"Bottle", "", false},
	}
	for _, tc := range cases {
		if got := labelMatchesMaterial(tc.label, tc.material); got != tc.want {
			t.Errorf("labelMatchesMaterial(%q, %q): want=%v got=%v", tc.label, tc.material, tc.want, got)
		}
	}
}
