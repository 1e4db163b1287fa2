package remix

import (
	"fmt"

	"github.com/mmcdole/netkin/internal/domain"
)

// Styles are the poster art styles offered to the viewer, in display order
var Styles = []string{
	"Cinematic Realistic",
	"Vintage Retro 80s",
	"Minimalist Vector",
	"Anime / Manga",
	"Oil Painting",
	"Cyberpunk",
	"Dark Noir",
	"Watercolor",
}

// PosterPrompt describes the poster to generate for m in style
func PosterPrompt(m domain.Movie, style string) string {
	return fmt.Sprintf("Create a high-quality, professional movie poster for a %s movie titled %q. "+
		"Director: %s. Year: %s. Art Style: %s. "+
		"Visually striking, detailed, cinematic lighting. Ensure the atmosphere matches the genre.",
		m.Genre, m.Title, m.Author, m.Year, style)
}

// TeaserPrompt is the editable starting prompt for a teaser video
func TeaserPrompt(m domain.Movie) string {
	return fmt.Sprintf("A cinematic trailer scene for the movie %q, a %s film. "+
		"High quality, photorealistic, dramatic lighting.", m.Title, m.Genre)
}
