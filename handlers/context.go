package handlers

// UserContextKey is where the route wrappers stash the authenticated
// data.User on the request context.
const UserContextKey = "user"
