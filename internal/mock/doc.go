package mock

//go:generate mockgen -destination=provider.go -package=mock github.com/tep-hq/playbook/provider Provider
//go:generate mockgen -destination=profile.go -package=mock github.com/tep-hq/playbook/profile Store
