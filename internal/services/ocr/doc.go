// Package ocr turns captured frames into text. The local engine shells out
// to tesseract with several recognition profiles in parallel and keeps the
// best attempt; the cloud engine calls Baidu's accurate_basic endpoint with
// a cached OAuth token.
package ocr
