// Package server provides HTTP routing, middleware, and the account-linking flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Account Linking
//
// [OAuthHandler] implements both halves of the OAuth2 authorization-code flow:
// Connect builds the consent URL with a state token held in a short-lived
// HttpOnly cookie, and Callback verifies that token, resolves the session,
// exchanges the code, and persists the resulting credentials on the user.
// Every callback outcome is a dashboard redirect carrying one query indicator.
//
// # Sessions
//
// Login issues a database-backed session whose ID travels in an HttpOnly
// cookie. The [Sessions] middleware resolves the cookie to a user on every
// request and stores it on the context; [UserFromContext] reads it back.
//
// # Onboarding
//
// [OnboardingHandler] exposes the status query and the idempotent completion
// action. Completion never requires a linked provider.
//
// # Composition
//
// [App] wires repositories, providers, handlers, logging, metrics and rate
// limiting into a single [http.Handler] from one immutable config.
package server
