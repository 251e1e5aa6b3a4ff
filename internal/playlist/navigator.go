// Package playlist navigates a genre's track list with play/pause state.
package playlist

type (
	Track struct {
		ID       int    `json:"id"`
		Title    string `json:"title"`
		Artist   string `json:"artist"`
		Duration string `json:"duration"`
		Genre    string `json:"genre,omitempty"`
	}

	// State is a snapshot of the navigator. CurrentTrackID, when set, always
	// names a member of Tracks.
	State struct {
		Genre          string  `json:"genre"`
		Tracks         []Track `json:"tracks"`
		CurrentTrackID *int    `json:"current_track_id"`
		IsPlaying      bool    `json:"is_playing"`
	}
)

// Navigator is not safe for concurrent use.
type Navigator struct {
	genre   string
	tracks  []Track
	current int // index into tracks, -1 when nothing is selected
	playing bool
}

func NewNavigator() *Navigator {
	return &Navigator{current: -1}
}

// Load replaces the track list. The current track survives when the new list
// contains it; otherwise the first track is selected (none for an empty list)
// and playback stops.
func (n *Navigator) Load(genre string, tracks []Track) {
	var keep *int
	if n.current >= 0 {
		id := n.tracks[n.current].ID
		keep = &id
	}

	n.genre = genre
	n.tracks = append([]Track(nil), tracks...)
	n.current = -1

	if keep != nil {
		if i := n.indexOf(*keep); i >= 0 {
			n.current = i
			return
		}
	}
	n.playing = false
	if len(n.tracks) > 0 {
		n.current = 0
	}
}

// PlayPause toggles playback, with or without a selected track.
func (n *Navigator) PlayPause() {
	n.playing = !n.playing
}

// Next advances cyclically. No-op when the list is empty or nothing is
// selected.
func (n *Navigator) Next() {
	if len(n.tracks) == 0 || n.current < 0 {
		return
	}
	n.current = (n.current + 1) % len(n.tracks)
}

// Previous moves back cyclically. No-op when the list is empty or nothing is
// selected.
func (n *Navigator) Previous() {
	if len(n.tracks) == 0 || n.current < 0 {
		return
	}
	n.current = (n.current - 1 + len(n.tracks)) % len(n.tracks)
}

// SelectTrack selects id and starts playing it. Unknown ids leave the state
// unchanged and return false.
func (n *Navigator) SelectTrack(id int) bool {
	i := n.indexOf(id)
	if i < 0 {
		return false
	}
	n.current = i
	n.playing = true
	return true
}

// CurrentTrack returns the selected track.
func (n *Navigator) CurrentTrack() (Track, bool) {
	if n.current < 0 {
		return Track{}, false
	}
	return n.tracks[n.current], true
}

func (n *Navigator) State() State {
	s := State{
		Genre:     n.genre,
		Tracks:    append([]Track{}, n.tracks...),
		IsPlaying: n.playing,
	}
	if n.current >= 0 {
		id := n.tracks[n.current].ID
		s.CurrentTrackID = &id
	}
	return s
}

func (n *Navigator) indexOf(id int) int {
	for i, t := range n.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
