package config

type AppConfig struct {
	Bot    BotConfig
	Server ServerConfig
	Store  StoreConfig
	Notify NotifyConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	botCfg, err := LoadBot()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	storeCfg, err := LoadStore()
	if err != nil {
		return AppConfig{}, err
	}
	notifyCfg, err := LoadNotify()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Bot:    botCfg,
		Server: serverCfg,
		Store:  storeCfg,
		Notify: notifyCfg,
		Log:    logCfg,
	}, nil
}
