package target

// defaultTargets 内置默认目标列表（targets.txt 不存在或为空时使用）
var defaultTargets = []string{
	"mc.hypixel.net",
	"hy.hypixel.com.cn",
	"Hypixel-1.xuegao123.xyz",
	"MC.HYPIXEL.CC",
	"SJ.HY.HYPIXEL.COM.CN",
	"LG.HY.HYPIXEL.COM.CN",
	"MC.Hypixel.CN",
	"Hyp.Jiasu.Ru",
	"MC.HYPIXEL.WIN",
	"mc.yuanshen.us",
	"hypszj.laoxienet.xyz",
	"Hyp-1.JiaSu.Ru",
	"free.voic.fun",
	"sh.yuanshen.us",
	"MC.MCHYP.TOP",
	"B.Hypixel.CN",
	"Hyp-2.JiaSu.Ru",
	"Hyp-3.Jiasu.Ru",
	"hypixel.scarefree.cn",
	"sqbgp.yuanshen.us",
	"gz.yuanshen.us",
	"free.voic.fun",
	"us.lfcup.cn",
	"cn2.lfcup.cn",
	"hk.lfcup.cn",
	"hk2.lfcup.cn",
	"sz.lfcup.cn",
	"sh-jp-pro.jsip.top",
	"Hyp-1.xuegao123.xyz",
	"china.hypixel.su",
	"HK.HY.HYPIXEL.COM.CN",
	"sq.jsip.club",
	"hypixel.net.hypixel.su",
	"hypixel.cyou",
	"Cmcc.IPV6.BETA.hypixel.su",
	"hyp-2.xuegao123.xyz",
	"hyp-3.xuegao123.xyz",
	"free.naboost.site",
	"connect.hypixel.run",
	"mc.jsip.lol",
	"hk.hypixel.click",
	"ncp.hight.cloud",
	"sh.hypixel.cn",
	"hyp.quickproxy.top",
	"A.Hypixel.CN",
	"as.minemen.cn",
	"hoplite.mchyp.top",
	"mc.hypixel.best",
	"mmc.mchyp.top",
	"sh1.390001.xyz",
	"la.jsip.top",
	"sh-jp.jsip.top",
}
