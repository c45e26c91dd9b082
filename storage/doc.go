// Package storage defines the transfer sink a feed is delivered to and a
// registry of providers.
//
// # Providers
//
//   - storage/sftp: SSH file transfer (the Symplectic endpoint)
//   - storage/ftps: FTP with explicit TLS
//   - storage/s3: Amazon S3 and S3-compatible storage
//   - storage/local: a directory on the local filesystem
//
// Providers register themselves in init, so the binary blank-imports the
// ones it supports:
//
//	import _ "github.com/mitlibraries/carbon/storage/sftp"
//
// # Configuration
//
//	transfer:
//	  provider: sftp
//	  host: sftp.example.com
//	  port: 22
//	  user: carbon
//	  path: /prod/people.xml
//	  timeout: 30s
package storage
