package readability

import (
	"math"

	"golang.org/x/net/html"
)

// cleanConditionally removes tag elements below root that look like
// boilerplate, judged on class weight, score, comma count, media counts and
// link density. It walks the elements in reverse document order so that
// removals do not disturb the ones still to visit.
func (s *Session) cleanConditionally(root *html.Node, tag string) {
	if !s.flagIsActive(FlagCleanConditionally) {
		return
	}

	nodes := getElementsByTagName(root, tag)
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		weight := s.classWeight(n)
		score := s.scores[n]

		s.logger.Debug().
			Str("tag", tag).
			Str("class", className(n)).
			Str("id", nodeID(n)).
			Float64("score", score).
			Msg("cleaning conditionally")

		if float64(weight)+score < 0 {
			removeNode(n)
			continue
		}

		if commaCount(n) >= 10 {
			continue
		}

		if s.looksLikeBoilerplate(n, tag, weight) {
			removeNode(n)
		}
	}
}

func (s *Session) looksLikeBoilerplate(n *html.Node, tag string, weight int) bool {
	p := countTag(n, "p")
	img := countTag(n, "img")
	li := countTag(n, "li") - 100
	input := countTag(n, "input")

	embedCount := 0
	for _, embed := range getElementsByTagName(n, "embed") {
		if !RegexpVideos.MatchString(getAttr(embed, "src")) {
			embedCount++
		}
	}

	density := linkDensity(n)
	contentLength := textLength(n)

	switch {
	case img > p:
		return true
	case li > p && tag != "ul" && tag != "ol":
		return true
	case float64(input) > math.Floor(float64(p)/3):
		return true
	case contentLength < 25 && (img == 0 || img > 2):
		return true
	case weight < 25 && density > 0.2:
		return true
	case weight >= 25 && density > 0.5:
		return true
	case (embedCount == 1 && contentLength < 75) || embedCount > 1:
		return true
	}
	return false
}
