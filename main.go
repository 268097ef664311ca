package main

import "github.com/killallgit/fraza-api/cmd"

// @title           Fraza API
// @version         1.0.0
// @description     Language-learning backend: script refinement, bilingual chunking, speech synthesis and user profiles
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/fraza-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:3000
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Firebase ID token, prefixed with "Bearer "
func main() {
	cmd.Execute()
}
