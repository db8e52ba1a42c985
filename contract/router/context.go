package router

import "context"

// Context is re-exported for convenience in handler signatures.
// It avoids importing context in user packages when referencing router types.
type Context = context.Context
