package handlers

// @title Plant Shop API
// @version 1.0
// @description Product catalog and CSV import endpoints for the plant shop

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @securityDefinitions.basic BasicAuth

// @tag.name products
// @tag.description Catalog queries and product creation

// @tag.name import
// @tag.description Presigned CSV upload URLs
