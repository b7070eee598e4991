// Package artifact stores rendered report PDFs and issues time-limited download links.
package artifact

import "time"

// DefaultBucket is the bucket reports are written to.
const DefaultBucket = "3cs-pdfs"

// PDFContentType is attached to every uploaded report.
const PDFContentType = "application/pdf"

// DefaultSignedURLExpiry bounds how long a download link stays valid.
const DefaultSignedURLExpiry = time.Hour
