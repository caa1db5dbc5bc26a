package api

import (
	"context"
	"fmt"
	"strconv"

	"wordler/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// guildPageSize is the most guilds Discord returns per page
const guildPageSize = 200

var discordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// DiscordIdentity runs the OAuth2 handshake and reads the user's profile
type DiscordIdentity interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUser(ctx context.Context, accessToken string) (*discordgo.User, error)
}

// DiscordOAuth talks to Discord with the user's bearer token. It also
// implements service.GroupFetcher.
type DiscordOAuth struct {
	config *oauth2.Config
}

// NewDiscordOAuth creates the OAuth2 client for the identify and guilds scopes
func NewDiscordOAuth(clientID, clientSecret, redirectURL string) *DiscordOAuth {
	return &DiscordOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint:     discordEndpoint,
		},
	}
}

// AuthCodeURL returns the consent page URL carrying state
func (d *DiscordOAuth) AuthCodeURL(state string) string {
	return d.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token
func (d *DiscordOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange discord code: %v", service.ErrUnavailable, err)
	}
	return token, nil
}

// FetchUser returns the profile behind accessToken
func (d *DiscordOAuth) FetchUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	session, err := bearerSession(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch discord user: %v", service.ErrUnavailable, err)
	}
	return user, nil
}

// FetchGroupIDs lists the guilds accessToken can see
func (d *DiscordOAuth) FetchGroupIDs(ctx context.Context, accessToken string) ([]int64, error) {
	session, err := bearerSession(accessToken)
	if err != nil {
		return nil, err
	}

	guilds, err := session.UserGuilds(guildPageSize, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch discord guilds: %v", service.ErrUnavailable, err)
	}

	ids := make([]int64, 0, len(guilds))
	for _, g := range guilds {
		id, err := strconv.ParseInt(g.ID, 10, 64)
		if err != nil {
			log.WithField("guildID", g.ID).Warn("Skipping guild with malformed id")
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func bearerSession(accessToken string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return session, nil
}
