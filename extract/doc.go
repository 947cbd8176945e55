// Package extract fetches web pages and turns them into sentences.
//
// WebExtractor downloads a page, drops boilerplate (navigation, scripts,
// short or link-heavy blocks) and splits the remaining text into
// sentences. FetchAll runs an Extractor over a list of URLs with bounded
// concurrency and keeps query lines as they are.
package extract
