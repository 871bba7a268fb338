// Package pdfrender implements render.Renderer for PDF files.
//
// The page tree, media boxes, text runs and embedded images come from the
// tabula PDF reader. Pages are drawn by typesetting each text run with the Go
// fonts at its position and size, shrunk where needed so the run never
// overflows the advance the PDF reports for it. This keeps the word boxes
// the tokenizer derives from the runs aligned with the visible text. Vector
// graphics are not drawn.
//
// Pages without any text are treated as scans: the largest embedded image is
// stretched over the page, and with the "ocr" build tag the words found on
// it by Tesseract become the page's text runs.
//
// A Document serializes access to its reader, so renders for the same
// document never overlap even when an older render is still finishing after
// being cancelled.
package pdfrender
