// Package services implements external music service integrations.
//
// # Provider Interface
//
// The [Provider] interface abstracts one external service's OAuth2
// authorization-code flow: building the consent URL and exchanging the
// returned code for tokens. Handlers depend on the interface so tests can
// substitute fakes and so new services slot in without touching the flow.
//
// # Implementations
//
//   - [SpotifyProvider] : full authorization-code flow via [golang.org/x/oauth2]
//   - [StubProvider] : YouTube Music and Deezer placeholders answering with not-implemented errors
//
// # Registry
//
// [Registry] maps provider names to implementations. The server package uses
// it to route /{provider}/connect requests.
package services
