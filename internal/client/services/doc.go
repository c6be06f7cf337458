// Package services holds the client's application state: the session store
// (who is signed in) and the theme store (light or dark). Views read state
// from here and call these services instead of the API client directly.
package services
