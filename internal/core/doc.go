// Package core provides the business logic for storing parsed tables.
//
// It sits between the transport layer and the parser in package table, and
// can be used by web handlers, CLI tools, or tests without modification.
//
// # Architecture
//
//   - Service: the entry point (parse, upload, load, list, delete).
//   - Limiter: bounds how many uploads are decoded and parsed at once.
//   - Store: persistence. [PgStore] writes to PostgreSQL, [MemStore] keeps
//     everything in memory.
//   - TextReader: turns uploaded bytes into UTF-8 text.
//
// # Upload Flow
//
//  1. Client calls [Service.Upload] with an io.Reader
//  2. A limiter slot is taken, waiting up to Upload.MaxWaitTime
//  3. The reader is decoded (BOM, UTF-16, invalid UTF-8) and size-checked
//  4. [table.Parse] detects the dialect and infers cell kinds
//  5. The record, the decoded text and every cell are saved in one transaction
//
// The decoded text is the source of truth: [Service.Table] parses it again,
// so a stored table answers queries exactly as it did at upload time. The
// table_cells rows exist for SQL consumers.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError]:
//
//   - TBL001-TBL004: Parse failures (with the offending line), missing cells
//   - FILE001-FILE003: File errors (size, empty, missing)
//   - UPL001-UPL004: Upload errors (busy, not found, cancelled, timeout)
//   - DB001-DB004: Database connectivity
package core
