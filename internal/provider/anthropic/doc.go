// Package anthropic adapts the Anthropic Claude Messages API to
// [aigate.Adapter].
//
// The adapter serves completion and streaming. Embedding and multimodal
// operations report [aigate.UnsupportedOperationError] so the gateway can
// move on to a provider that offers them.
//
// System messages are sent in the request's System field. Requests that do
// not set MaxTokens are sent with 4096, because the API requires a limit.
//
// One SDK client is kept per API key, created on first use with SDK retries
// disabled.
package anthropic
