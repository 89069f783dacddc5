// Package summary sends commit digests to a chat-completions endpoint and returns the reply.
//
// Two endpoint flavours are supported. When a deployment is configured the client speaks the
// Azure OpenAI dialect (deployment in the path, api-version query, api-key header); otherwise it
// posts to an OpenAI-compatible /chat/completions route with a bearer token.
package summary
