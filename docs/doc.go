// Package docs provides generated OpenAPI documentation.
//
// Lectern API
//
//	@title			Lectern API
//	@version		1.0
//	@description	Teaching content generation API for curriculum resources, lesson plans, question sets, presentations, and notes.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/lecternhq/lectern
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/lectern/serve.go -o ./swagger --parseDependency --parseInternal
