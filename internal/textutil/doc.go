// Package textutil provides text processing for OCR output: similarity
// scoring between recognized texts and the cleanup pipeline that turns raw
// engine output into a stable question candidate.
//
// Similarity blends normalized Levenshtein edit distance with word-overlap
// (Dice coefficient); both operate on cleaned text where punctuation and
// whitespace runs collapse to single spaces. The cleanup pipeline strips
// noise characters, folds full-width lookalikes, applies an injectable
// correction table, and extracts the question sentences from mixed content.
package textutil
