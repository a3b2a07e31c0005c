package player

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/model"
	"github.com/Nixie-Tech-LLC/lobby/internal/playback"
)

// Player turns feed messages into display commands. On an in-band error it
// keeps playing the last good feed.
type Player struct {
	display   Display
	mediaBase string
	clock     playback.Clock
	sched     *playback.Scheduler
}

func New(display Display, mediaBaseURL string, clock playback.Clock) *Player {
	if clock == nil {
		clock = playback.SystemClock
	}
	p := &Player{
		display:   display,
		mediaBase: strings.TrimSuffix(mediaBaseURL, "/"),
		clock:     clock,
	}
	p.sched = playback.NewScheduler(clock, p.show)
	return p
}

func (p *Player) OnFeed(entries []model.FeedEntry) {
	log.Debug().Int("entries", len(entries)).Msg("[player] feed received")
	p.sched.SetFeed(entries)
}

func (p *Player) OnFeedError(fe FeedError) {
	current, showing := p.sched.Current()
	event := log.Warn().Int("status", fe.Status).Str("msg", fe.Msg)
	if showing {
		event = event.Int("showing_index", current.Index)
	}
	event.Msg("[player] server reported feed error, keeping last feed")
}

// Stop cancels the pending transition. The player cannot be restarted.
func (p *Player) Stop() {
	p.sched.Stop()
}

// MediaURL is where the screen fetches an entry's file. Placeholders have none.
func (p *Player) MediaURL(entry model.FeedEntry) string {
	if entry.IsPlaceholder() {
		return ""
	}
	return p.mediaBase + "/" + strings.TrimPrefix(entry.FilePath, "/")
}

func (p *Player) show(sel playback.Selection, ok bool) {
	cmd := Command{Action: ActionBlank, SentAt: p.clock.Now().UTC()}
	if ok {
		cmd.Action = ActionShow
		cmd.Index = sel.Index
		cmd.ContentType = sel.Entry.ContentType
		cmd.URL = p.MediaURL(sel.Entry)
		cmd.Duration = sel.Entry.Duration
		cmd.Remaining = sel.Remaining
	}

	if err := p.display.Show(cmd); err != nil {
		log.Error().Err(err).Str("action", cmd.Action).Msg("[player] display failed")
	}
}
