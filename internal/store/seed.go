package store

import "github.com/draftkit/draftkit/internal/models"

// Sample template injected on first use so a new install is not an
// empty screen.
const (
	sampleName    = "Sample: Intro follow-up"
	sampleSubject = "Great speaking with you, {{first_name}}"
	sampleContent = `Hi {{first_name}},

Thanks for taking the time to speak with {{spoke_to}} earlier.

It sounds like {{company_name}} is weighing us against {{competitor}} right now. Before you decide, I'd love to walk you through a quick side-by-side.

Would {{date_1|longdate}} work for a short call? If that day is busy, I also have {{date_2|shortdate}} open.

Best,`
)

// ensureSample injects the sample template the very first time the
// store is read with zero templates present, then latches
// SampleSeeded so a deliberately deleted sample never reappears.
// Returns true when the state changed and needs saving.
func (s *Store) ensureSample(state *models.State) bool {
	if state.Settings.SampleSeeded || len(state.Templates) > 0 {
		return false
	}

	now := s.now()
	state.Templates = append(state.Templates, &models.Template{
		ID:        s.newID(),
		Name:      sampleName,
		Subject:   sampleSubject,
		Content:   sampleContent,
		CreatedAt: now,
		UpdatedAt: now,
	})
	state.Settings.SampleSeeded = true

	s.logger.Debug().Msg("sample template seeded")
	return true
}
