// Package security builds client TLS settings for outbound connections: the
// MongoDB client and the OTLP exporters share the same TLSConfig block.
//
//	mongo:
//	  tls:
//	    ca_file: /etc/ssl/mongo-ca.pem
//	    min_version: "1.3"
package security
