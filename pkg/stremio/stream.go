package stremio

import (
	"fmt"
	"regexp"
)

var infoHashRE = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// Validate checks that s carries exactly one source and hints consistent with it.
func (s Stream) Validate() error {
	switch {
	case s.URL == "" && s.InfoHash == "":
		return fmt.Errorf("%w: no source", ErrInvalidStream)
	case s.URL != "" && s.InfoHash != "":
		return fmt.Errorf("%w: both url and info hash set", ErrInvalidStream)
	case s.URL != "" && (s.FileIndex != nil || len(s.Sources) > 0):
		return fmt.Errorf("%w: torrent fields set on a url stream", ErrInvalidStream)
	}

	if s.InfoHash != "" {
		if !infoHashRE.MatchString(s.InfoHash) {
			return fmt.Errorf("%w: info hash %q is not 40 hex characters", ErrInvalidStream, s.InfoHash)
		}
		if s.FileIndex != nil && *s.FileIndex < 0 {
			return fmt.Errorf("%w: negative file index", ErrInvalidStream)
		}
		// Torrents need a client-side resolution step before a browser can play them.
		if s.BehaviorHints == nil || !s.BehaviorHints.NotWebReady {
			return fmt.Errorf("%w: torrent stream must not be web ready", ErrInvalidStream)
		}
	}

	return nil
}
