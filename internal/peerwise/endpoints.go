package peerwise

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints are the pages of a PeerWise deployment the bot talks to.
type Endpoints struct {
	Login    string
	Home     string
	Course   string
	Question string
}

// NewEndpoints derives the endpoints for a course of an institution from the
// base url of the deployment, ex. `https://peerwise.cs.auckland.ac.nz`.
func NewEndpoints(baseUrl, institution, course string) (Endpoints, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return Endpoints{}, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Endpoints{}, fmt.Errorf("base url %q must be absolute", baseUrl)
	}
	base := strings.TrimRight(parsed.String(), "/")

	return Endpoints{
		Login:    fmt.Sprintf("%s/at/?%s", base, institution),
		Home:     fmt.Sprintf("%s/home/", base),
		Course:   fmt.Sprintf("%s/course/main.php?course_id=%s", base, url.QueryEscape(course)),
		Question: fmt.Sprintf("%s/course/main.php", base),
	}, nil
}
