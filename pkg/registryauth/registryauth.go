package registryauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/roemer/relwatch/pkg/common"
)

// A bearer token for one fetch sequence. Tokens are never cached.
type Token struct {
	Value string
	Scope string
}

// A parsed "WWW-Authenticate: Bearer ..." challenge.
type Challenge struct {
	Realm   string
	Service string
	Scope   string
}

var challengeParamRegex = regexp.MustCompile(`([A-Za-z]+)="([^"]*)"`)

// Gets registry tokens with the challenge / response flow of the registry v2 api.
type Authenticator struct {
	logger *slog.Logger
	http   *common.HttpUtil
}

func NewAuthenticator(logger *slog.Logger, httpUtil *common.HttpUtil) *Authenticator {
	return &Authenticator{
		logger: logger,
		http:   httpUtil,
	}
}

// Gets a token for the given resource. Returns nil without an error if the registry allows anonymous access.
func (a *Authenticator) GetToken(ctx context.Context, registryBaseUrl string, resourcePath string, credentials *common.Credentials) (*Token, error) {
	registryBaseUrl = strings.TrimSuffix(registryBaseUrl, "/")
	probeUrl := fmt.Sprintf("%s/v2/%s/tags/list", registryBaseUrl, resourcePath)
	a.logger.Debug(fmt.Sprintf("Probing '%s' for an authentication challenge", probeUrl))

	probeResponse, err := a.http.Fetch(ctx, probeUrl)
	if err != nil {
		return nil, &common.AuthError{Registry: registryBaseUrl, Err: err}
	}
	if probeResponse.StatusCode != http.StatusUnauthorized {
		return nil, nil
	}
	challenge, ok := ParseChallenge(probeResponse.Header.Get("WWW-Authenticate"))
	if !ok {
		return nil, nil
	}
	if challenge.Realm == "" {
		return nil, &common.AuthError{Registry: registryBaseUrl, Err: fmt.Errorf("no realm in challenge")}
	}
	if challenge.Scope == "" {
		challenge.Scope = fmt.Sprintf("repository:%s:pull", resourcePath)
	}

	tokenUrl, err := url.Parse(challenge.Realm)
	if err != nil {
		return nil, &common.AuthError{Registry: registryBaseUrl, Err: fmt.Errorf("invalid realm '%s': %w", challenge.Realm, err)}
	}
	query := tokenUrl.Query()
	if challenge.Service != "" {
		query.Set("service", challenge.Service)
	}
	query.Set("scope", challenge.Scope)
	tokenUrl.RawQuery = query.Encode()

	modifiers := []common.RequestModifier{}
	if credentials.HasBasicAuth() {
		modifiers = append(modifiers, common.WithBasicAuth(credentials.UsernameExpanded(), credentials.PasswordExpanded()))
	}
	tokenBytes, err := a.http.DownloadToMemory(ctx, tokenUrl.String(), modifiers...)
	if err != nil {
		return nil, &common.AuthError{Registry: registryBaseUrl, Err: fmt.Errorf("failed getting a token: %w", err)}
	}

	var tokenObj struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(tokenBytes, &tokenObj); err != nil {
		return nil, &common.AuthError{Registry: registryBaseUrl, Err: fmt.Errorf("failed decoding the token: %w", err)}
	}
	value := tokenObj.Token
	if value == "" {
		value = tokenObj.AccessToken
	}
	if value == "" {
		return nil, &common.AuthError{Registry: registryBaseUrl, Err: fmt.Errorf("token response without a token")}
	}
	a.logger.Debug(fmt.Sprintf("Got a token for scope '%s'", challenge.Scope))
	return &Token{Value: value, Scope: challenge.Scope}, nil
}

// Parses a "WWW-Authenticate" header. Returns false if it is not a bearer challenge.
func ParseChallenge(header string) (*Challenge, bool) {
	header = strings.TrimSpace(header)
	scheme, params, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return nil, false
	}
	challenge := &Challenge{}
	for _, match := range challengeParamRegex.FindAllStringSubmatch(params, -1) {
		switch strings.ToLower(match[1]) {
		case "realm":
			challenge.Realm = match[2]
		case "service":
			challenge.Service = match[2]
		case "scope":
			challenge.Scope = match[2]
		}
	}
	return challenge, true
}

// Gets the bearer modifier for the token. A nil token sends no authorization.
func (t *Token) Modifier() common.RequestModifier {
	if t == nil {
		return common.WithBearer("")
	}
	return common.WithBearer(t.Value)
}
