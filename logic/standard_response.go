package logic

import (
	"fmt"
	"strings"
)

// SynthesizeStandardResponse combines the four derived fields into a single
// sentence. Pure and deterministic: it is the read-time fallback for sessions
// stored without a model-produced standard response, and never triggers an
// AI call.
func SynthesizeStandardResponse(observation, feeling, need, request string) string {
	parts := []string{
		strings.TrimRight(strings.TrimSpace(observation), "。"),
		fmt.Sprintf("这让我感到%s", strings.TrimRight(strings.TrimSpace(feeling), "。")),
		fmt.Sprintf("因为我需要%s", strings.TrimRight(strings.TrimSpace(need), "。")),
		strings.TrimRight(strings.TrimSpace(request), "。"),
	}
	return strings.Join(parts, "。") + "。"
}
