package readability

import (
	"math"

	"golang.org/x/net/html"

	"github.com/sr3d/node-readability/internal/simplifiers"
)

// classWeight scores the class and id of a node against the positive and
// negative vocabularies. It is 0 while FlagWeightClasses is off.
func (s *Session) classWeight(n *html.Node) int {
	if !s.flagIsActive(FlagWeightClasses) {
		return 0
	}

	weight := 0

	if class := className(n); class != "" {
		if RegexpNegative.MatchString(class) {
			weight -= ClassWeightNegative
		}
		if RegexpPositive.MatchString(class) {
			weight += ClassWeightPositive
		}
	}

	if id := nodeID(n); id != "" {
		if RegexpNegative.MatchString(id) {
			weight -= ClassWeightNegative
		}
		if RegexpPositive.MatchString(id) {
			weight += ClassWeightPositive
		}
	}

	return weight
}

// initialScore is the tag bias plus the class weight.
func (s *Session) initialScore(n *html.Node) float64 {
	score := 0.0

	switch tagName(n) {
	case "DIV":
		score += 5
	case "PRE", "TD", "BLOCKQUOTE":
		score += 3
	case "ADDRESS", "OL", "UL", "DL", "DD", "DT", "LI", "FORM":
		score -= 3
	case "H1", "H2", "H3", "H4", "H5", "H6", "TH":
		score -= 5
	}

	return score + float64(s.classWeight(n))
}

// initializeNode marks n as scored.
func (s *Session) initializeNode(n *html.Node) {
	s.scores[n] = s.initialScore(n)
}

func (s *Session) isScored(n *html.Node) bool {
	_, ok := s.scores[n]
	return ok
}

// Score returns the content score of n and whether n was scored.
func (s *Session) Score(n *html.Node) (float64, bool) {
	score, ok := s.scores[n]
	return score, ok
}

// linkDensity is the share of the text of n that sits inside anchors.
func linkDensity(n *html.Node) float64 {
	textLen := textLength(n)
	if textLen == 0 {
		return 0
	}

	linkLen := 0
	for _, a := range getElementsByTagName(n, "a") {
		linkLen += textLength(a)
	}

	return math.Min(1, float64(linkLen)/float64(textLen))
}

// contentScore values a paragraph: one point as a base, one per comma
// segment, and one per hundred characters up to three.
func contentScore(text string) float64 {
	score := 1.0
	score += float64(len(RegexpComma.Split(text, -1)))
	score += math.Min(math.Floor(float64(simplifiers.Length(text))/100), 3)
	return score
}

// commaCount counts plain and full-width commas in the text of n.
func commaCount(n *html.Node) int {
	return len(RegexpComma.FindAllStringIndex(innerText(n), -1))
}
