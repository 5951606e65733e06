// Package config 负责加载 evmmcpd 的运行配置：JSON 配置文件、可选的 .env 文件
// 以及环境变量。
package config
